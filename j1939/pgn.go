package j1939

// PGN is a J1939 Parameter Group Number. PDU1-format PGNs (PF < 240)
// carry a destination address and are represented here as the group
// number alone; PDU2-format PGNs (PF >= 240) are broadcast-only and the
// low byte is a group extension folded into the number.
type PGN uint32

// Standard PGNs used by the core, per spec §6.1. PGN numbers follow
// SAE J1939-71 except the two vendor HCU bank groups and
// ProprietarilyConfigurableMessage3, a vendor-proprietary group whose
// symbolic name spec.md gives without a literal SAE number; 65088 is
// this implementation's assignment, a PDU2-format number below the
// Proprietary B range (65280-65535), and is internally consistent end
// to end.
const (
	PGNRequest                           PGN = 59904
	PGNAddressClaimed                    PGN = 60928
	PGNAcknowledgmentMessage             PGN = 59392
	PGNSoftwareIdentification            PGN = 65242
	PGNTimeDate                          PGN = 65254
	PGNElectronicEngineController1       PGN = 61444
	PGNTorqueSpeedControl1               PGN = 0
	PGNElectronicBrakeController1        PGN = 61441
	PGNElectronicTransController2        PGN = 61445
	PGNProprietarilyConfigurableMessage3 PGN = 65088
	HCUBank0                             PGN = 40960
	HCUBank1                             PGN = 41216
)

// ProprietaryB builds the PGN value for a ProprietaryB(xxxxx) group
// extension, e.g. ProprietaryB(65450) for the Kübler encoder.
func ProprietaryB(groupExtension uint16) PGN {
	return PGN(groupExtension)
}

// IsPDU1 reports whether this PGN uses PDU1 addressing (PF < 240),
// meaning frames built from it carry a destination address.
func (p PGN) IsPDU1() bool {
	return (uint32(p)>>8)&0xFF < 240
}
