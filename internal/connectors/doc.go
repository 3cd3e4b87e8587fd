// Package connectors holds the clients of code-review hosts. Each connector
// implements driven.PullRequestSource for one host.
package connectors
