package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cardlet/cardlet-invites/internal/domain"
	"github.com/cardlet/cardlet-invites/internal/http/response"
)

// decodeJSON reads the request body into dst. A malformed body is reported to
// the client directly; the caller just returns on false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "invalid request body")
		return false
	}
	return true
}

// pathID parses the named chi URL parameter as a positive integer id.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "invalid "+name)
		return 0, false
	}
	return id, true
}

// requestMeta captures the connection details the service layer records with
// a guest submission.
func requestMeta(r *http.Request) domain.RequestMeta {
	return domain.RequestMeta{
		ForwardedFor:    r.Header.Get("X-Forwarded-For"),
		ProxyClientIP:   r.Header.Get("Proxy-Client-IP"),
		WLProxyClientIP: r.Header.Get("WL-Proxy-Client-IP"),
		RemoteAddr:      r.RemoteAddr,
	}
}
