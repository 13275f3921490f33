// Package kinematic implements the actor/world model of spec §3 and
// §4.3: a flat, ordered kinematic chain of named rigid segments with
// relative transforms, and forward-kinematic world-location queries.
package kinematic

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"
)

// segment pairs a name with its isometry relative to its predecessor in
// the chain. The chain is a flat ordered slice; the parent of segment k
// is implied by position (k-1), per spec §9 ("no cyclic references
// required").
type segment struct {
	name     string
	isometry Isometry
}

// Actor is a named kinematic chain. The first segment is the world
// anchor ("root"); segment names are unique within an actor and looked
// up by first match.
type Actor struct {
	Name     string
	segments []segment
}

// ActorBuilder appends segments in chain order to produce an Actor.
type ActorBuilder struct {
	name     string
	segments []segment
}

// NewActorBuilder starts building a named actor.
func NewActorBuilder(name string) *ActorBuilder {
	return &ActorBuilder{name: name}
}

// AttachRigid appends a segment rigidly offset from its predecessor by
// the given isometry.
func (b *ActorBuilder) AttachRigid(name string, offset Isometry) *ActorBuilder {
	b.segments = append(b.segments, segment{name: name, isometry: offset})
	return b
}

// Build returns the constructed Actor. An empty build produces a single
// "root" segment at the origin, per spec §4.3.
func (b *ActorBuilder) Build() *Actor {
	segs := b.segments
	if len(segs) == 0 {
		segs = []segment{{name: "root", isometry: IdentityIsometry()}}
	}
	return &Actor{Name: b.name, segments: segs}
}

func (a *Actor) indexOf(name string) int {
	for i, s := range a.segments {
		if s.name == name {
			return i
		}
	}
	return -1
}

// Location returns the root segment's translation.
func (a *Actor) Location() r3.Vector {
	return a.segments[0].isometry.Translation
}

// Rotation returns the root segment's rotation.
func (a *Actor) Rotation() mgl32.Quat {
	return a.segments[0].isometry.Rotation
}

// SetLocation rigidly repositions the whole actor by moving the root
// segment's translation.
func (a *Actor) SetLocation(p r3.Vector) {
	a.segments[0].isometry.Translation = p
}

// SetRotation rigidly reorients the whole actor by setting the root
// segment's rotation.
func (a *Actor) SetRotation(r mgl32.Quat) {
	a.segments[0].isometry.Rotation = r
}

// RelativeLocation returns the translation of the named segment
// relative to its parent. Returns an error if the name does not exist.
func (a *Actor) RelativeLocation(name string) (r3.Vector, error) {
	i := a.indexOf(name)
	if i < 0 {
		return r3.Vector{}, fmt.Errorf("kinematic: unknown segment %q", name)
	}
	return a.segments[i].isometry.Translation, nil
}

// RelativeRotation returns the named segment's own rotation, relative
// to its parent (not composed with ancestors).
func (a *Actor) RelativeRotation(name string) (mgl32.Quat, error) {
	i := a.indexOf(name)
	if i < 0 {
		return mgl32.Quat{}, fmt.Errorf("kinematic: unknown segment %q", name)
	}
	return a.segments[i].isometry.Rotation, nil
}

// SetRelativeRotation replaces the named segment's rotation relative to
// its parent.
func (a *Actor) SetRelativeRotation(name string, r mgl32.Quat) error {
	i := a.indexOf(name)
	if i < 0 {
		return fmt.Errorf("kinematic: unknown segment %q", name)
	}
	a.segments[i].isometry.Rotation = r
	return nil
}

// AddRelativeRotation right-multiplies the named segment's rotation by
// r, per spec §4.3.
func (a *Actor) AddRelativeRotation(name string, r mgl32.Quat) error {
	i := a.indexOf(name)
	if i < 0 {
		return fmt.Errorf("kinematic: unknown segment %q", name)
	}
	a.segments[i].isometry.Rotation = a.segments[i].isometry.Rotation.Mul(r)
	return nil
}

// WorldLocation composes the homogeneous transforms of segments 0
// through the named segment (inclusive) and applies the result to the
// origin, per spec §4.3 and the testable property in §8.
func (a *Actor) WorldLocation(name string) (r3.Vector, error) {
	i := a.indexOf(name)
	if i < 0 {
		return r3.Vector{}, fmt.Errorf("kinematic: unknown segment %q", name)
	}
	acc := a.segments[0].isometry
	for k := 1; k <= i; k++ {
		acc = acc.Compose(a.segments[k].isometry)
	}
	return acc.Transform(r3.Vector{}), nil
}

// World holds the set of actors in the machine, looked up by name.
type World struct {
	actors map[string]*Actor
}

// NewWorld constructs an empty world.
func NewWorld() *World {
	return &World{actors: make(map[string]*Actor)}
}

// AddActor installs an actor into the world under its own name.
func (w *World) AddActor(a *Actor) {
	w.actors[a.Name] = a
}

// Actor looks up an actor by name.
func (w *World) Actor(name string) (*Actor, bool) {
	a, ok := w.actors[name]
	return a, ok
}
