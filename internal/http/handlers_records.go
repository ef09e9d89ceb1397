package http

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/core"
)

type recordRequest struct {
	Date        *string `json:"date"`
	Type        *string `json:"type"`
	Category    *string `json:"category"`
	Amount      *string `json:"amount"`
	Description *string `json:"description"`
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request, user core.User) {
	page, err := s.filter.Page(r.Context(), user.ID, criteriaFromQuery(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": toRecordList(page.Items),
		"page":  page.Page,
		"per":   page.PerPage,
		"total": page.TotalMatching,
		"pages": page.TotalPages,
	})
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request, user core.User) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec := core.Record{OwnerID: user.ID}
	if err := s.applyRecordFields(r, &rec, req, true); err != nil {
		writeErr(w, err)
		return
	}

	created, err := s.store.CreateRecord(r.Context(), rec)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.events.RecordCreated(r.Context(), created)
	writeJSON(w, http.StatusCreated, toRecordJSON(created))
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	rec, err := s.store.RecordByID(r.Context(), user.ID, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordJSON(rec))
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	rec, err := s.store.RecordByID(r.Context(), user.ID, id)
	if err != nil {
		writeErr(w, err)
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.applyRecordFields(r, &rec, req, false); err != nil {
		writeErr(w, err)
		return
	}

	updated, err := s.store.UpdateRecord(r.Context(), rec)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordJSON(updated))
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := s.store.DeleteRecord(r.Context(), user.ID, id); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// applyRecordFields merges request fields into rec, validating each
// one. Create requires every field; update touches only those present.
// Interactive writes are where category existence is enforced: the
// category must already exist for this owner, matched exactly.
func (s *Server) applyRecordFields(r *http.Request, rec *core.Record, req recordRequest, create bool) error {
	if req.Date != nil {
		d := sanitizeInput(*req.Date)
		if !core.ValidDate(d) {
			return core.ErrInvalidDate
		}
		rec.Date = d
	} else if create {
		return core.ErrInvalidDate
	}

	if req.Type != nil {
		kind, err := core.ParseKind(*req.Type)
		if err != nil {
			return err
		}
		rec.Kind = kind
	} else if create {
		return core.ErrInvalidKind
	}

	if req.Category != nil {
		name := sanitizeInput(*req.Category)
		if name == "" {
			return core.ErrInvalidCategory
		}
		exists, err := s.store.CategoryExists(r.Context(), rec.OwnerID, name)
		if err != nil {
			return err
		}
		if !exists {
			return core.ErrCategoryMissing
		}
		rec.Category = name
	} else if create {
		return core.ErrInvalidCategory
	}

	if req.Amount != nil {
		amount, err := core.ParseAmount(*req.Amount)
		if err != nil {
			return err
		}
		rec.Amount = amount
	} else if create {
		return core.ErrInvalidAmount
	}

	if req.Description != nil {
		rec.Description = sanitizeInput(*req.Description)
	}

	return rec.Validate()
}
