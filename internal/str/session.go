//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

//
// SERVERSESSIONS
//

type ServerSession struct {
	ID          string
	Columns     []string        `json:"columns"`     // witness ids in display order
	ScriptModes map[string]bool `json:"scriptmodes"` // witness id -> Mandaic on/off; survives column add/remove
	Page        int             `json:"page"`
}

// ScriptMode - is this witness column being shown in Mandaic script?
func (s ServerSession) ScriptMode(wid string) bool {
	return s.ScriptModes[wid]
}
