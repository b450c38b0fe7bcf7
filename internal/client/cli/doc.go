// Package cli provides the users command-line client.
//
// Each invocation runs one command against the users API:
//
//	signup        create an account and keep its token
//	login         log in and keep the token
//	logout        forget the cached token
//	me            show the current profile
//	update        change name and/or email
//	get <id>      show another account (self or admin only)
//
// Passwords are read from the terminal without echo and wiped after use.
// The access token is cached in the file named by Config.TokenFile.
package cli
