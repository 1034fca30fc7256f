//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

// Witness - one manuscript copy; immutable once the registry has been built
type Witness struct {
	ID     string `json:"id"`
	Siglum string `json:"siglum"`
	Title  string `json:"title"`
}
