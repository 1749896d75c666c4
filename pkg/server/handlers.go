package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
	"github.com/DeBrosOfficial/contacts/pkg/httputil"
	"github.com/DeBrosOfficial/contacts/pkg/logging"
	"github.com/DeBrosOfficial/contacts/pkg/store"
)

type listResponse struct {
	Contacts any `json:"contacts"`
	Total    int `json:"total"`
	Skip     int `json:"skip"`
	Limit    int `json:"limit"`
}

type deleteResponse struct {
	contact.Contact
	IsDeleted bool `json:"isDeleted"`
}

// handleList serves both list layouts; searchParam names the parameter that
// carries the search text.
func (s *Server) handleList(searchParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, err := httputil.QueryParamInt(r, "skip", 0)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		limit, err := httputil.QueryParamInt(r, "limit", DefaultLimit)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		fields, err := httputil.ValidateFields(httputil.QueryParamList(r, "fields"))
		if err != nil {
			s.fail(w, r, err)
			return
		}

		opts := store.ListOptions{
			Search: httputil.QueryParam(r, searchParam, ""),
			Skip:   skip,
			Limit:  limit,
		}
		contacts, total, err := s.store.List(r.Context(), opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		if contacts == nil {
			contacts = []contact.Contact{}
		}
		var body any = contacts
		if len(fields) > 0 {
			projected := make([]any, len(contacts))
			for i, c := range contacts {
				if projected[i], err = httputil.Project(c, fields); err != nil {
					s.fail(w, r, errors.NewSerializationError("project contact", err))
					return
				}
			}
			body = projected
		}

		httputil.WriteJSON(w, http.StatusOK, listResponse{
			Contacts: body,
			Total:    total,
			Skip:     skip,
			Limit:    limit,
		})
	}
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in contact.Contact
	if err := httputil.DecodeJSON(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := httputil.ValidateContact(in); err != nil {
		s.fail(w, r, err)
		return
	}

	created, err := s.store.Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.ComponentInfo(logging.ComponentServer, "Contact created", zap.Int64("id", int64(created.ID)))
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in contact.Contact
	if err := httputil.DecodeJSON(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := httputil.ValidateContact(in); err != nil {
		s.fail(w, r, err)
		return
	}

	updated, err := s.store.Update(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.ComponentInfo(logging.ComponentServer, "Contact updated", zap.Int64("id", int64(id)))
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.ComponentInfo(logging.ComponentServer, "Contact deleted", zap.Int64("id", int64(id)))
	httputil.WriteJSON(w, http.StatusOK, deleteResponse{Contact: c, IsDeleted: true})
}

func pathID(r *http.Request) (contact.ID, error) {
	id, err := httputil.ParseID(chi.URLParam(r, "id"))
	return contact.ID(id), err
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	switch errors.GetCategory(errors.GetErrorCode(err)) {
	case errors.CategoryServer:
		fields = append(fields, zap.String("stack", errors.StackTrace(err)))
		s.logger.ComponentError(logging.ComponentServer, "Request failed", fields...)
	case errors.CategoryNetwork:
		s.logger.ComponentWarn(logging.ComponentServer, "Request failed", fields...)
	default:
		s.logger.ComponentDebug(logging.ComponentServer, "Request rejected", fields...)
	}
	httputil.WriteError(w, err)
}
