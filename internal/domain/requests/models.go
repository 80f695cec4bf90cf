package requests

import "time"

// Kind is the explicit request category, assigned once when a request is
// read from storage or decoded from a payload. No other code inspects
// field shapes to decide what a request is.
type Kind string

const (
	KindPermit    Kind = "permit"
	KindEquipment Kind = "equipment"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Permit subtypes (novelty types, source-system vocabulary).
const (
	SubtypeDescanso  = "descanso"
	SubtypeCita      = "cita"
	SubtypeAudiencia = "audiencia"
	SubtypeLicencia  = "licencia"
	SubtypeDiaAM     = "diaAM"
	SubtypeDiaPM     = "diaPM"
)

// Equipment (postulation) subtypes.
const (
	SubtypeTurnoPareja    = "Turno pareja"
	SubtypeTablaPartida   = "Tabla partida"
	SubtypeDisponibleFijo = "Disponible fijo"
)

type Request struct {
	ID                 string    `json:"id"`
	Code               string    `json:"code"`
	Name               string    `json:"name"`
	Kind               Kind      `json:"kind"`
	Type               string    `json:"type"`
	Status             string    `json:"status"`
	Phone              string    `json:"phone,omitempty"`
	Dates              []string  `json:"dates,omitempty"`
	Time               string    `json:"time,omitempty"`
	Zone               string    `json:"zone,omitempty"`
	Description        string    `json:"description,omitempty"`
	Respuesta          string    `json:"respuesta,omitempty"`
	Files              []string  `json:"files,omitempty"`
	NotificationStatus string    `json:"notificationStatus,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Zones is the fixed set of operational zones used as a filter dimension
// on equipment requests.
var Zones = []string{
	"Acevedo",
	"Tricentenario",
	"Universidad-gardel",
	"Hospital",
	"Prado",
	"Cruz",
	"San Antonio",
	"Exposiciones",
	"Alejandro",
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func ValidZone(zone string) bool {
	for _, z := range Zones {
		if z == zone {
			return true
		}
	}
	return false
}
