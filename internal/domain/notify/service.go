package notify

import (
	"context"
	"fmt"

	"permits/internal/domain/requests"
	"permits/internal/platform/jobs"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// EmailLookup resolves an employee code to a mail address. Employees
// without one simply get no mail; the in-app notification flag still
// tells them about the decision.
type EmailLookup interface {
	EmailByCode(ctx context.Context, code string) (string, error)
}

// Service turns approve/reject decisions into asynchronous decision
// notices. It satisfies requests.DecisionNotifier.
type Service struct {
	Mailer Mailer
	Lookup EmailLookup
	Jobs   *jobs.Service
	From   string
}

func New(mailer Mailer, lookup EmailLookup, jobsSvc *jobs.Service, from string) *Service {
	return &Service{Mailer: mailer, Lookup: lookup, Jobs: jobsSvc, From: from}
}

func (s *Service) NotifyDecision(_ context.Context, req requests.Request) {
	if s.Jobs == nil {
		return
	}
	s.Jobs.Enqueue(jobs.JobDecisionNotice, req.ID, func(ctx context.Context) (any, error) {
		to, err := s.Lookup.EmailByCode(ctx, req.Code)
		if err != nil || to == "" {
			return "no address", nil
		}
		subject, body := DecisionMessage(req)
		if err := s.Mailer.Send(ctx, s.From, to, subject, body); err != nil {
			return nil, err
		}
		return "sent", nil
	})
}

// DecisionMessage builds the notice for a decided request.
func DecisionMessage(req requests.Request) (subject, body string) {
	verdict := "rechazada"
	if req.Status == requests.StatusApproved {
		verdict = "aprobada"
	}
	subject = fmt.Sprintf("Su solicitud de %s fue %s", req.Type, verdict)
	body = fmt.Sprintf("Hola %s,\n\nSu solicitud de %s fue %s.", req.Name, req.Type, verdict)
	if req.Respuesta != "" {
		body += "\n\nRespuesta: " + req.Respuesta
	}
	return subject, body
}
