// Package cli provides the projecthub command-line client.
//
// Commands talk to the auth server's HTTP API:
//
//	projecthub register   create an account (logs in when the server allows it)
//	projecthub login      sign in and store the session token
//	projecthub profile    show the signed-in user
//	projecthub users      list registered users
//	projecthub logout     revoke the session token on the server
//
// The session token is kept in a file only its owner can read. Passwords
// are read from the terminal without echo, or as one line from stdin when
// it is not a terminal.
package cli
