// Package sessiontest issues real authenticated sessions for tests and
// browser automation without going through a login flow.
//
// Cookies come out of the same Manager, codec and Set-Cookie rendering that
// production uses, so a request carrying one is indistinguishable from a
// request made after a real login:
//
//	m, _ := session.New(cfg)
//	srv := httptest.NewServer(app)
//	jar, _ := cookiejar.New(nil)
//
//	c := sessiontest.MustIssue(t, m, "did:ethr:0xabc")
//	u, _ := url.Parse(srv.URL)
//	c.Install(jar, u)
//
// Server code must never import this package; it is meant for tests and
// developer tooling such as cmd/sessionmint.
package sessiontest
