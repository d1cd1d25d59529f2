package db

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	"tailscale.com/tsweb"

	"github.com/banshee-data/inky2048/internal/httputil"
	"github.com/banshee-data/inky2048/internal/monitoring"
)

// AttachAdminRoutes mounts tailsql, a backup download and swipe statistics
// under /debug/.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux) error {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		return fmt.Errorf("create tailsql server: %w", err)
	}
	tsql.SetDB("sqlite://"+db.path, db.DB, &tailsql.DBOptions{
		Label: "Game DB",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(db.serveBackup))

	debug.Handle("swipe-stats", "Per-direction swipe statistics (?session=<id>)", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sum, err := db.SwipeStats(r.URL.Query().Get("session"))
		if err != nil {
			httputil.InternalServerError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, sum)
	}))

	debug.HandleSilentFunc("recent-swipes", func(w http.ResponseWriter, r *http.Request) {
		limit, err := httputil.PositiveInt(r, "limit", 50)
		if err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		swipes, err := db.RecentSwipes(limit)
		if err != nil {
			httputil.InternalServerError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, s := range swipes {
			fmt.Fprintln(w, s)
		}
	})
	return nil
}

func (db *DB) serveBackup(w http.ResponseWriter, r *http.Request) {
	backupPath := filepath.Join(os.TempDir(), fmt.Sprintf("inky-backup-%d.db", time.Now().UnixNano()))
	if _, err := db.Exec("VACUUM INTO ?", backupPath); err != nil {
		http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := os.Remove(backupPath); err != nil {
			monitoring.Logf("Failed to remove backup file: %v", err)
		}
	}()

	f, err := os.Open(backupPath)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.gz", filepath.Base(backupPath)))
	w.Header().Set("Content-Type", "application/gzip")
	gz := gzip.NewWriter(w)
	defer gz.Close()
	if _, err := io.Copy(gz, f); err != nil {
		monitoring.Logf("backup: write failed: %v", err)
	}
}
