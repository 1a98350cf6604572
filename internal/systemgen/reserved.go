package systemgen

import "strings"

const (
	instToken  = "<INST>"
	swregToken = "<SWREG>"
)

// reservedSignals maps the ports that are connected by naming convention to
// their system-level expression. <INST> expands to the upper-cased system
// name joined with the instance name, <SWREG> to the peripheral's register
// prefix.
var reservedSignals = map[string]string{
	"clk_i":        "clk_i",
	"cke_i":        "cke_i",
	"arst_i":       "arst_i",
	"iob_valid_i":  "slaves_req[`VALID(`<INST>)]",
	"iob_addr_i":   "slaves_req[`ADDRESS(`<INST>,`<SWREG>_ADDR_W)]",
	"iob_wdata_i":  "slaves_req[`WDATA(`<INST>)]",
	"iob_wstrb_i":  "slaves_req[`WSTRB(`<INST>)]",
	"iob_rdata_o":  "slaves_resp[`RDATA(`<INST>)]",
	"iob_ready_o":  "slaves_resp[`READY(`<INST>)]",
	"iob_rvalid_o": "slaves_resp[`RVALID(`<INST>)]",
}

// IsReserved reports whether port is auto-connected.
func IsReserved(port string) bool {
	_, ok := reservedSignals[port]
	return ok
}

// reservedConnection returns the expression the reserved port is wired to.
func reservedConnection(port, instMacro, swregPrefix string) string {
	r := strings.NewReplacer(instToken, instMacro, swregToken, swregPrefix)
	return r.Replace(reservedSignals[port])
}
