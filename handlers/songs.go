// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/crowd-band/cliparse"
	"github.com/danielhkuo/crowd-band/contest"
	"github.com/danielhkuo/crowd-band/middleware"
)

type SongHandler struct {
	engine *contest.Engine
	cfg    cliparse.Config
}

func NewSongHandler(engine *contest.Engine, cfg cliparse.Config) *SongHandler {
	return &SongHandler{engine: engine, cfg: cfg}
}

// List handles GET /songs
func (h *SongHandler) List(w http.ResponseWriter, r *http.Request) {
	songs, err := h.engine.CompletedSongs(r.Context())
	if err != nil {
		writeError(w, err, "list songs")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, songs)
}

// Get handles GET /songs/{week}
func (h *SongHandler) Get(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(r.PathValue("week"))
	if err != nil || week < 1 {
		middleware.ValidationErrorResponse(w, contest.ReasonInvalidArg, "week must be a positive integer")
		return
	}

	song, err := h.engine.Song(r.Context(), week)
	if err != nil {
		writeError(w, err, "get song")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, song)
}
