// Package main is the entry point for occigate, a hypermedia resource
// protocol front for an OpenStack-style cloud API.
package main

func main() {
	Execute()
}
