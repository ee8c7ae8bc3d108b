package iso8583

// statusTable maps DE 39 response codes to a human-readable label, grounded
// on the donor's RC_* response-code constants. Unrecognized codes get the
// label "unknown response code NN", with the raw code echoed, so callers
// always get a string back.
var statusTable = map[string]string{
	"00": "approved",
	"01": "refer to card issuer",
	"03": "invalid merchant",
	"04": "pickup card",
	"05": "do not honor",
	"12": "invalid transaction",
	"13": "invalid amount",
	"14": "invalid card number",
	"15": "no such issuer",
	"30": "format error",
	"41": "lost card",
	"43": "stolen card",
	"51": "insufficient funds",
	"54": "expired card",
	"55": "incorrect pin",
	"57": "transaction not permitted to cardholder",
	"58": "transaction not permitted to terminal",
	"61": "exceeds withdrawal amount limit",
	"62": "restricted card",
	"65": "exceeds withdrawal frequency limit",
	"75": "pin tries exceeded",
	"91": "issuer or switch inoperative",
	"96": "system malfunction",
}

// Status looks up a human-readable label for msg's response, keyed on DE 39
// ("39"). The MTI ("0") must be present (KindMTIMissing otherwise), but its
// value is not inspected: a request MTI carrying DE 39 is labeled the same
// way as a response.
func Status(msg Message) (string, error) {
	mti, ok := msg["0"]
	if !ok || mti == "" {
		return "", newErr(KindMTIMissing, "0", nil)
	}
	de39, ok := msg["39"]
	if !ok || de39 == "" {
		return "", newErr(KindFormatAmbiguous, "39", map[string]any{"mti": mti})
	}
	if label, ok := statusTable[de39]; ok {
		return label, nil
	}
	return "unknown response code " + de39, nil
}
