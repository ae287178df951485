// Command server runs the websession HTTP service.
//
// Configuration comes from the environment, optionally seeded from a .env
// file in the working directory:
//
//	SESSION_SECRETS   comma separated signing secrets, first one signs (required)
//	SESSION_STORE     cookie, memory, redis or postgres (default memory)
//	APP_ENV           development, staging or production (default production)
//	HTTP_ADDR         listen address (default :8080)
//	REDIS_URL         used when SESSION_STORE=redis
//	PG_CONN_URL       used when SESSION_STORE=postgres
//
// Outside development POST /login refuses every request until the binary
// is built with a real Authenticator.
package main
