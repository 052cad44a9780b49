package middleware

import (
	"net/http"
	"sync"

	"github.com/julienschmidt/httprouter"
)

// Serialize runs h while holding mu, so handlers sharing mu never overlap.
func Serialize(h httprouter.Handle, mu *sync.Mutex) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		mu.Lock()
		defer mu.Unlock()

		h(w, r, ps)
	}
}
