/*
rdattools - Recover DAT audio and DDS computer data from R-DAT RF captures.
*/
package main

import "github.com/tapeworks/rdattools/cmd"

func main() {
	cmd.Execute()
}
