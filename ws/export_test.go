package ws

// SessionCount exposes the gateway's live session count for tests.
func (g *Gateway) SessionCount() int {
	return g.sessionCount()
}

// GatewayOf exposes the server's gateway for tests.
func (s *Server) GatewayOf() *Gateway {
	return s.gateway
}
