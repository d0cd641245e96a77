package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerline/backoffice-portal/internal/api/view"
	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

var kycScreen = screen{name: "kyc", title: "Verification", current: "kyc"}

type KYCHandler struct {
	client ports.ClientAPI
	pages  *Pages
}

func NewKYCHandler(client ports.ClientAPI, pages *Pages) *KYCHandler {
	return &KYCHandler{client: client, pages: pages}
}

// List handles GET /kyc.
func (h *KYCHandler) List(c echo.Context) error {
	return h.render(c, http.StatusOK, nil, "")
}

func (h *KYCHandler) render(c echo.Context, status int, errs FormErrors, msg string) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	docs, err := h.client.ListKYC(c.Request().Context(), sess.Token)
	if err != nil {
		return err
	}
	return h.pages.Render(c, status, kycScreen, view.Page{Data: docs, Errors: errs}, errorFlash(msg)...)
}

// Upload handles POST /kyc.
func (h *KYCHandler) Upload(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	setBack(c, "/kyc")

	var form kycForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	err = c.Validate(&form)
	if err == nil {
		err = h.upload(c, sess, form)
	}
	if err != nil {
		if errs, msg, ok := formFailure(err); ok {
			return h.render(c, http.StatusUnprocessableEntity, errs, msg)
		}
		return err
	}
	return h.pages.Redirect(c, domain.FlashSuccess, "Document uploaded. We will review it shortly.", "/kyc")
}

func (h *KYCHandler) upload(c echo.Context, sess *domain.Session, form kycForm) error {
	fh, err := c.FormFile("document")
	if err != nil {
		return FormErrors{"document": "document is required"}
	}
	f, err := fh.Open()
	if err != nil {
		return FormErrors{"document": "document could not be read"}
	}
	defer f.Close()

	_, err = h.client.UploadKYC(c.Request().Context(), sess.Token, ports.KYCUploadInput{
		DocumentType: form.DocumentType,
		File: ports.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Content:     f,
		},
	})
	return err
}
