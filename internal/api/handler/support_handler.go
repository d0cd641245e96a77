package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ledgerline/backoffice-portal/internal/api/view"
	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

var (
	supportScreen   = screen{name: "support", title: "Support", current: "support"}
	ticketScreen    = screen{name: "ticket", title: "Ticket", current: "support"}
	ticketNewScreen = screen{name: "ticket_new", title: "New ticket", current: "support"}
)

type SupportHandler struct {
	client ports.ClientAPI
	pages  *Pages
}

func NewSupportHandler(client ports.ClientAPI, pages *Pages) *SupportHandler {
	return &SupportHandler{client: client, pages: pages}
}

// List handles GET /support.
func (h *SupportHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	q := listQuery(c)
	tickets, err := h.client.ListTickets(c.Request().Context(), sess.Token, q)
	if err != nil {
		return err
	}
	return h.pages.Render(c, http.StatusOK, supportScreen,
		view.Page{Data: tickets, PagerBase: pagerBase("/support", q)})
}

// Show handles GET /support/:id.
func (h *SupportHandler) Show(c echo.Context) error {
	return h.renderTicket(c, http.StatusOK, nil, "")
}

func (h *SupportHandler) renderTicket(c echo.Context, status int, errs FormErrors, msg string) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	ticket, err := h.client.GetTicket(c.Request().Context(), sess.Token, c.Param("id"))
	if err != nil {
		return err
	}
	s := ticketScreen
	s.title = ticket.Subject
	return h.pages.Render(c, status, s, view.Page{Data: ticket, Errors: errs}, errorFlash(msg)...)
}

// New handles GET /support/new.
func (h *SupportHandler) New(c echo.Context) error {
	return h.pages.Render(c, http.StatusOK, ticketNewScreen, view.Page{})
}

// Create handles POST /support.
func (h *SupportHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	setBack(c, "/support/new")

	var form ticketForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Subject = strings.TrimSpace(form.Subject)
	form.Message = strings.TrimSpace(form.Message)

	var ticket *domain.Ticket
	err = c.Validate(&form)
	if err == nil {
		ticket, err = h.client.CreateTicket(c.Request().Context(), sess.Token, ports.TicketInput{
			Subject:  form.Subject,
			Priority: form.Priority,
			Message:  form.Message,
		})
	}
	if err != nil {
		if errs, msg, ok := formFailure(err); ok {
			return h.pages.Render(c, http.StatusUnprocessableEntity, ticketNewScreen,
				view.Page{Form: &form, Errors: errs}, errorFlash(msg)...)
		}
		return err
	}

	to := "/support"
	if ticket != nil && ticket.ID != "" {
		to = "/support/" + ticket.ID
	}
	return h.pages.Redirect(c, domain.FlashSuccess, "Ticket opened. We will get back to you shortly.", to)
}

// Reply handles POST /support/:id/replies.
func (h *SupportHandler) Reply(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	setBack(c, "/support/"+id)

	var form replyForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Message = strings.TrimSpace(form.Message)

	err = c.Validate(&form)
	if err == nil {
		err = h.client.ReplyTicket(c.Request().Context(), sess.Token, id, form.Message)
	}
	if err != nil {
		if errs, msg, ok := formFailure(err); ok {
			return h.renderTicket(c, http.StatusUnprocessableEntity, errs, msg)
		}
		return err
	}
	return h.pages.Redirect(c, domain.FlashSuccess, "Reply sent.", "/support/"+id)
}
