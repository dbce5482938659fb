// Package hcl_adapter loads canvas flows written in HCL.
//
// A flow file looks like:
//
//	flow "patrol" {
//	  start = "go"
//	}
//
//	node "start" "go" {}
//
//	node "text" "cmd" {
//	  text = "turn left 90"
//	}
//
//	node "movement" "wheels" {
//	  title     = "Wheels"
//	  direction = "forward"
//	  value     = 1
//	}
//
//	connector "c1" {
//	  start = "go"
//	  end   = "cmd"
//	}
//
// Every attribute of a node block other than title becomes a property.
// Directories are searched recursively for .hcl files, which are merged in
// path order.
package hcl_adapter
