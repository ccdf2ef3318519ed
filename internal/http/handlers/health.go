package handlers

import "net/http"

// Health reports liveness. It deliberately checks nothing downstream: the
// upstream directory and render services being up is a per-run concern, not
// a process-health one.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
