package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/sshuster/viral-video-whisperer-pro/cache"
)

// ShareQR handles GET /api/videos/{id}/qr - renders a QR code for the
// analyzed video's URL so it can be shared from the dashboard. Rendered PNGs
// are cached by record id and size.
func (dh *DashboardHandler) ShareQR(qrCache *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		record, ok := dh.ctrl.Lookup(id)
		if !ok {
			SendJSONError(w, http.StatusNotFound, errors.New("analysis not found"), "")
			return
		}

		size := 256
		if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
			parsed, err := strconv.Atoi(sizeStr)
			if err != nil || parsed < 128 || parsed > 1024 {
				SendJSONError(w, http.StatusBadRequest, errors.New("invalid size parameter"), "Size must be a number between 128 and 1024")
				return
			}
			size = parsed
		}

		cacheKey := "qr:" + id + ":" + strconv.Itoa(size)
		var png []byte
		if qrCache != nil {
			if cached, found := qrCache.Get(cacheKey); found {
				if bytes, ok := cached.([]byte); ok {
					png = bytes
				}
			}
		}

		if png == nil {
			var err error
			png, err = qrcode.Encode(record.URL, qrcode.Medium, size)
			if err != nil {
				log.Error().Err(err).Str("url", record.URL).Msg("Failed to generate QR code")
				SendJSONError(w, http.StatusInternalServerError, err, "Failed to generate QR code")
				return
			}
			if qrCache != nil {
				qrCache.Set(cacheKey, png, int64(len(png)))
			}
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		if _, err := w.Write(png); err != nil {
			log.Error().Err(err).Msg("Failed to write QR code response")
			return
		}

		log.Info().
			Str("record_id", id).
			Int("size", size).
			Msg("QR code served")
	}
}
