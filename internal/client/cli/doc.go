// Package cli provides the interactive SkillSync command-line client.
//
// It wires configuration, the flag store, the GraphQL client and the
// session store, then runs a REPL. Typical flow: signin, verify the emailed
// code when asked, then use the account commands. A background loop keeps
// the access token fresh while the REPL runs.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
