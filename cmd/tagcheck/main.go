// Command tagcheck verifies that annotated Go struct declarations agree with
// the column schema of the database they are bound to.
package main

func main() {
	Execute()
}
