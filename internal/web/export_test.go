package web

// ConnCount returns the number of WebSocket connections of a session.
func (s *Server) ConnCount(id string) int {
	return s.hub.Count(id)
}
