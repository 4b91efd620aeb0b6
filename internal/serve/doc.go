// Package serve hosts the terminal front end over SSH. Each session runs
// its own simulation inside a Bubble Tea program; closing the connection
// destroys it.
//
//	spherefall serve --addr :23234
//	ssh -p 23234 -t localhost
package serve
