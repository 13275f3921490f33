package j1939_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/laixer/glonax/j1939"
)

func TestIdentifierRoundTrip(t *testing.T) {
	cases := []j1939.Identifier{
		{Priority: 3, PGN: j1939.PGNElectronicBrakeController1, Destination: 0xFF, Source: 7},
		{Priority: 6, PGN: j1939.ProprietaryB(65450), Destination: 0xFF, Source: 9},
		{Priority: 6, PGN: j1939.PGNRequest, Destination: 42, Source: 1},
	}

	for _, id := range cases {
		got := j1939.IdentifierFromCANID(id.ToCANID())
		test.That(t, got.Priority, test.ShouldEqual, id.Priority)
		test.That(t, got.PGN, test.ShouldEqual, id.PGN)
		test.That(t, got.Source, test.ShouldEqual, id.Source)
		if id.PGN.IsPDU1() {
			test.That(t, got.Destination, test.ShouldEqual, id.Destination)
		}
	}
}

func TestFramePDUPadding(t *testing.T) {
	f := j1939.NewFrame(j1939.Identifier{PGN: j1939.PGNRequest}, []byte{1, 2, 3})
	test.That(t, f.PDU(), test.ShouldResemble, []byte{1, 2, 3})
	padded := f.PDUPadded()
	test.That(t, padded[3], test.ShouldEqual, byte(0xFF))
	test.That(t, padded[7], test.ShouldEqual, byte(0xFF))
}

func TestHCUBankPGNIsPDU1(t *testing.T) {
	test.That(t, j1939.HCUBank0.IsPDU1(), test.ShouldBeTrue)
	test.That(t, j1939.HCUBank1.IsPDU1(), test.ShouldBeTrue)
}
