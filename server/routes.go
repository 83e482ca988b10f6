package server

// Route paths served by the authorization engine.
const (
	RouteAuthorize = "/authorize"
	RouteLogin     = "/login"
	RouteRegister  = "/register"
	RouteConsent   = "/consent"
)

func (s *Server) initRoutes() {
	// Authorization endpoint
	s.RegisterRouteHandler("GET "+RouteAuthorize, ChainMiddleware(s.AuthorizeHandler(), s.APIMiddleware()...))

	// LOGIN / REGISTER interaction
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteRegister, ChainMiddleware(s.RegisterPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteRegister, ChainMiddleware(s.RegisterSubmissionHandler(), s.HTMLMiddleware()...))

	// CONSENT interaction
	s.RegisterRouteHandler("GET "+RouteConsent, ChainMiddleware(s.ConsentGetHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteConsent, ChainMiddleware(s.ConsentPostHandler(), s.HTMLMiddleware()...))
}
