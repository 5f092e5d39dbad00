// Command tagclean finds tag anomalies in audio files and repairs them after
// confirmation.
//
// The clean subcommand resolves the requested files and directories, reads
// every file's tags once, then runs the rule set in a fixed order. Each rule
// prints its findings and asks a single yes/no question for the whole set.
// Other subcommands list the rules, show the fix journal, check the external
// tools, and manage the configuration file.
package main
