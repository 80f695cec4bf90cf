package exports

import (
	"strings"

	"permits/internal/domain/requests"
)

// Row is one flattened export line shared by the CSV, Excel, and PDF
// writers.
type Row struct {
	ID        string
	Code      string
	Name      string
	Category  string
	Type      string
	Status    string
	Zone      string
	Dates     string
	Respuesta string
	CreatedAt string
}

var header = []string{"id", "code", "name", "category", "type", "status", "zone", "dates", "respuesta", "created_at"}

func Flatten(reqs []requests.Request) []Row {
	rows := make([]Row, 0, len(reqs))
	for _, req := range reqs {
		category := "postulacion"
		if req.Kind == requests.KindPermit {
			category = "permiso"
		}
		rows = append(rows, Row{
			ID:        req.ID,
			Code:      req.Code,
			Name:      req.Name,
			Category:  category,
			Type:      req.Type,
			Status:    req.Status,
			Zone:      req.Zone,
			Dates:     strings.Join(req.Dates, ","),
			Respuesta: req.Respuesta,
			CreatedAt: req.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rows
}

func (r Row) values() []string {
	return []string{r.ID, r.Code, r.Name, r.Category, r.Type, r.Status, r.Zone, r.Dates, r.Respuesta, r.CreatedAt}
}
