package requests

var permitSubtypes = map[string]bool{
	SubtypeDescanso:  true,
	SubtypeCita:      true,
	SubtypeAudiencia: true,
	SubtypeLicencia:  true,
	SubtypeDiaAM:     true,
	SubtypeDiaPM:     true,
}

var equipmentSubtypes = map[string]bool{
	SubtypeTurnoPareja:    true,
	SubtypeTablaPartida:   true,
	SubtypeDisponibleFijo: true,
}

// Classify maps a request subtype to its category. Unknown subtypes fall
// through to equipment, matching how the source system treated anything
// outside the novelty-type set.
func Classify(subtype string) Kind {
	if permitSubtypes[subtype] {
		return KindPermit
	}
	return KindEquipment
}

func IsPermitSubtype(subtype string) bool {
	return permitSubtypes[subtype]
}

func IsEquipmentSubtype(subtype string) bool {
	return equipmentSubtypes[subtype]
}
