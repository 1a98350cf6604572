// Package systemgen instantiates a system top-level source file from a
// template. The template is plain Verilog with three anchors: a PHEADER
// marker after which peripheral headers are included, the end of the module
// port list after which internal wires are declared, and the endmodule
// keyword above which one instance block per peripheral is inserted.
package systemgen
