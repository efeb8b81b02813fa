// Command keypad runs the calculator keypad: the interaction state machine
// wired to the remote calculation service, behind a thin HTTP panel.
package main

func main() {
	Execute()
}
