// Package cli implements journal-cli, an interactive terminal client for the
// journal API.
//
// On start the CLI restores the session saved in the local state database,
// then reads commands line by line:
//
//	register | login | logout | whoami | reconnect
//	list | show <id> | new | edit <id> | delete <id>
//	focus | export [file] | import <file> | archive [file]
//	help | exit | quit
//
// Passwords are read without echo and wiped from memory after use.
package cli
