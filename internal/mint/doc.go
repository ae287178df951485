// Package mint implements the sessionmint command line tool.
//
// sessionmint issues real session cookies for browser automation and
// end-to-end tests, and inspects tokens offline. It reads the same
// environment as the server, so minted cookies are signed with the
// server's secrets and recorded in the server's store:
//
//	sessionmint issue --user-id did:ethr:0xabc --output yaml
//	sessionmint inspect v1.eyJ...
//	sessionmint revoke --user-id did:ethr:0xabc
//
// The memory store is process-local and therefore refused.
package mint
