// Package session provides authenticated web sessions backed by a signed,
// tamper-evident cookie with optional server-side revocation.
//
// A Manager issues a session when a user logs in, resolves the session from
// the Cookie header of every request and clears it on logout. The session
// token is produced by a Codec: a versioned payload signed with HMAC-SHA256
// under keys derived from one or more configured secrets. The first secret
// signs new tokens, all of them verify, so secrets can be rotated without
// logging everyone out.
//
// # Architecture
//
//	┌────────┐  Cookie   ┌──────────────────┐
//	│ Client │ ────────► │ cookie.Transport │
//	└────────┘           └──────────────────┘
//	     ▲                       │ token
//	     │ Set-Cookie            ▼
//	┌─────────────────────────────────────┐
//	│ Manager ── Codec (sign / verify)     │
//	└─────────────────────────────────────┘
//	     │   Save / Get / Delete
//	     ▼
//	┌────────┐
//	│ Store  │ (memory, redisstore, pgstore, or none)
//	└────────┘
//
// Without a Store the cookie alone is the session: logout clears it on the
// client, but a copied token stays valid until it expires. With a Store a
// logged-out or revoked token is rejected even though its signature is good.
//
// # Usage
//
//	cfg := session.DefaultConfig()
//	cfg.Secrets = []string{os.Getenv("SESSION_SECRET")}
//
//	manager, err := session.New(cfg, session.WithStore(session.NewMemoryStore(cfg.CleanupInterval)))
//	if err != nil {
//	    return err
//	}
//
//	r := chi.NewRouter()
//	r.Use(manager.SecureTransport(), manager.Middleware)
//	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
//	    // verify credentials first
//	    if _, err := manager.Login(w, r, userID, r.FormValue("remember") == "on"); err != nil {
//	        http.Error(w, "login failed", http.StatusInternalServerError)
//	        return
//	    }
//	    http.Redirect(w, r, "/", http.StatusSeeOther)
//	})
//	r.With(manager.RequireAuth("/login")).Get("/me", func(w http.ResponseWriter, r *http.Request) {
//	    userID, _ := session.UserIDFromContext(r.Context())
//	    fmt.Fprintln(w, userID)
//	})
//
// # Cookie
//
// The cookie is always named CookieName, scoped to path "/", HttpOnly, and
// SameSite Lax or Strict. Secure is set everywhere except local development.
// Default sessions last DefaultTTL; remember-me sessions last RememberTTL.
//
// # Error Handling
//
// Resolution never fails a request. A rejected cookie yields an
// unauthenticated Resolution whose Reason is one of:
//
//   - ErrMalformedToken    - the token is not a well-formed v1 token
//   - ErrInvalidSignature  - no configured secret produced the signature
//   - ErrSessionExpired    - the token is past its expiry
//   - ErrSessionRevoked    - the store no longer knows the session
//   - ErrStoreUnavailable  - the store could not answer; the cookie is kept
//
// See the sessiontest package for issuing real sessions in tests.
package session
