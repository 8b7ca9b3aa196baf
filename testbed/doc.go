// Package testbed runs generated class files through a real JDK.
//
// Tests skip when javap or java is not on PATH.
package testbed
