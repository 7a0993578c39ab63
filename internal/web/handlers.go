package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-shortscript/internal/idea"
	"github.com/alnah/go-shortscript/internal/workflow"
)

// StateView is the JSON shape of a session's workflow.
type StateView struct {
	Phase      workflow.Phase `json:"phase"`
	Transcript string         `json:"transcript"`
	Ideas      []idea.Record  `json:"ideas"`
	ChosenID   string         `json:"chosen_id,omitempty"`
	Script     string         `json:"script"`
	Busy       bool           `json:"busy"`
	Warnings   []string       `json:"warnings,omitempty"`
	UpdatedAt  *time.Time     `json:"updated_at,omitempty"`
}

func newStateView(st workflow.State) StateView {
	v := StateView{
		Phase:      st.Phase(),
		Transcript: st.Transcript,
		Ideas:      st.Ideas,
		Script:     st.Script,
		Busy:       st.Busy,
		Warnings:   st.Warnings,
	}
	if v.Ideas == nil {
		v.Ideas = []idea.Record{}
	}
	if st.Chosen != nil {
		v.ChosenID = st.Chosen.ID
	}
	if !st.UpdatedAt.IsZero() {
		t := st.UpdatedAt
		v.UpdatedAt = &t
	}
	return v
}

type ideasRequest struct {
	Transcript string `json:"transcript"`
}

type scriptRequest struct {
	IdeaID string `json:"idea_id"`
}

type reviseRequest struct {
	Feedback string `json:"feedback"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"generator": s.gen.Name(),
		"sessions":  s.store.Len(),
	})
}

func (s *Server) handleIndex(c *gin.Context) {
	st, err := s.store.Get(c.GetString(sessionKey))
	if err != nil {
		st = workflow.State{}
	}
	prompts := s.ctrl.Prompts()
	c.HTML(http.StatusOK, "index.html", gin.H{
		"State":     newStateView(st),
		"Generator": s.gen.Name(),
		"Style":     prompts.Style().String(),
		"Count":     prompts.Count(),
	})
}

func (s *Server) handleState(c *gin.Context) {
	st, err := s.store.Get(c.GetString(sessionKey))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, newStateView(st))
}

func (s *Server) handleReset(c *gin.Context) {
	id := c.GetString(sessionKey)
	if err := s.store.Reset(id); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, newStateView(workflow.State{}))
}

func (s *Server) handleIdeas(c *gin.Context) {
	var req ideasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, "Invalid request body.")
		return
	}
	s.runAction(c, func(st workflow.State) (workflow.State, error) {
		next, _, err := s.ctrl.GenerateIdeas(withSession(c.Request.Context(), c.GetString(sessionKey)), st, req.Transcript)
		return next, err
	})
}

func (s *Server) handleScript(c *gin.Context) {
	var req scriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, "Invalid request body.")
		return
	}
	s.runAction(c, func(st workflow.State) (workflow.State, error) {
		return s.ctrl.GenerateScript(withSession(c.Request.Context(), c.GetString(sessionKey)), st, req.IdeaID)
	})
}

func (s *Server) handleRevise(c *gin.Context) {
	var req reviseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, "Invalid request body.")
		return
	}
	s.runAction(c, func(st workflow.State) (workflow.State, error) {
		return s.ctrl.Revise(withSession(c.Request.Context(), c.GetString(sessionKey)), st, req.Feedback)
	})
}

// runAction serializes one workflow operation on the request's session.
// The stored state is replaced only when the operation succeeds; the busy
// flag is dropped on every other path, panics included.
func (s *Server) runAction(c *gin.Context, op func(workflow.State) (workflow.State, error)) {
	id := c.GetString(sessionKey)

	st, err := s.store.Acquire(id)
	if err != nil {
		respondErr(c, err)
		return
	}
	committed := false
	defer func() {
		if !committed {
			s.store.Release(id)
		}
	}()

	next, err := op(st)
	if err != nil {
		respondErr(c, err)
		return
	}

	s.store.Commit(id, next)
	committed = true
	respondOK(c, newStateView(next))
}

func (s *Server) handleWS(c *gin.Context) {
	id := c.GetString(sessionKey)
	if err := s.hub.serve(c.Writer, c.Request, id); err != nil {
		// The upgrader has already written an HTTP error response.
		s.log.Warn("websocket upgrade failed", "session", id, "error", err)
	}
}
