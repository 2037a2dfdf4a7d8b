package castle

import "encoding/json"

// JSON renders the allocation for transport: the sorted cut points plus
// the per-castle troop counts they induce.
func (c Castle) JSON() json.RawMessage {
	troops := c.Troops()
	out := struct {
		Cuts   []uint8 `json:"cuts"`
		Troops []int   `json:"troops"`
	}{Cuts: c.cuts[:], Troops: troops[:]}
	b, _ := json.Marshal(out)
	return b
}
