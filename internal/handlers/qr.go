package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boxaid/boxaid/internal/auth"
	"github.com/boxaid/boxaid/internal/printer"
	"github.com/boxaid/boxaid/internal/stock"
	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"
)

// qrImage renders the PNG for an existing scan code.
func (r *Router) qrImage(w http.ResponseWriter, req *http.Request) {
	code := mux.Vars(req)["code"]

	if _, err := r.stock.ResolveQrCode(req.Context(), code); err != nil {
		if errors.Is(err, stock.ErrQrCodeNotFound) {
			respondError(w, http.StatusNotFound, "QR code not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to look up QR code")
		return
	}

	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

type labelSheetRequest struct {
	Count int                  `json:"count"`
	Sheet *printer.SheetConfig `json:"sheet,omitempty"`
}

// labelSheet mints new scan codes and returns a printable PDF sheet of
// their QR labels in one step.
func (r *Router) labelSheet(w http.ResponseWriter, req *http.Request) {
	identity, ok := auth.IdentityFromContext(req.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "No identity in request context")
		return
	}
	if err := auth.RequirePermission(identity, PermQrCreate); err != nil {
		respondError(w, http.StatusForbidden, err.Error())
		return
	}

	body := labelSheetRequest{Count: 1}
	if req.Body != nil {
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}
	if body.Count < 1 || body.Count > 240 {
		respondError(w, http.StatusBadRequest, "Count must be between 1 and 240")
		return
	}

	qrCodes, err := r.stock.CreateQrCodes(req.Context(), body.Count)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to mint QR codes")
		return
	}

	codes := make([]string, len(qrCodes))
	for i, qr := range qrCodes {
		codes[i] = qr.Code
	}

	sheet := printer.DefaultSheetConfig()
	if body.Sheet != nil {
		sheet = *body.Sheet
	}

	pdf, err := printer.GenerateLabelSheet(codes, sheet)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate label sheet")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
