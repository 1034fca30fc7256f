//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

// VariantReading - one rdg as the popup sees it
type VariantReading struct {
	Witnesses string `json:"witnesses"`
	Cause     string `json:"cause"`
	Reading   string `json:"reading"`
}

// VariantAnnotation - everything attached to the lemma span of an apparatus node
type VariantAnnotation struct {
	Level     int              `json:"level"`
	Lemma     string           `json:"lemma"`
	Witnesses string           `json:"witnesses"`
	Rdg       string           `json:"rdg"`
	Causes    []string         `json:"causes"`
	Count     int              `json:"count"`
	Variants  []VariantReading `json:"variants"`
	Key       string           `json:"key"`
}
