// Package environment names the deployment environments the application runs
// in and answers the one question the session subsystem asks of them: is this
// a local development machine, where plain HTTP and non-Secure cookies are
// acceptable, or anything else, where they are not.
//
// Unknown or empty values parse as Production so a misconfigured deployment
// fails safe.
package environment
