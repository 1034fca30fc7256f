//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

import "time"

const (
	MYNAME    = "Ginza Golang Server"
	SHORTNAME = "GGS"
	VERSION   = "0.4.2"

	CONFIGALTAPTH  = "%s/.config/" // %s = os.UserHomeDir()
	CONFIGBASIC    = "ginza-conf.json"
	DOTENVFILE     = ".env"
	ENVPGPASS      = "GINZA_PGPASS"
	ENVSOURCE      = "GINZA_SOURCE"
	ENVTRANSLATION = "GINZA_TRANSLATION"

	DEFAULTECHOLOGLEVEL = 0
	DEFAULTGOLOGLEVEL   = 0
	DEFAULTSOURCE       = "ginza.xml"
	DEFAULTTRANSLATION  = "ginza-translation.xml"
	DEFAULTPSQLHOST     = "127.0.0.1"
	DEFAULTPSQLUSER     = "ginza_rd"
	DEFAULTPSQLPORT     = 5432
	DEFAULTPSQLDB       = "ginzaDB"
	DEFAULTLINETABLE    = "ginza_lines"
	DEFAULTTRANSTABLE   = "ginza_translation"
	DEFAULTWITTABLE     = "ginza_witnesses"

	BLACKANDWHITE            = false
	MAXECHOREQPERSECONDPERIP = 60
	MAXINPUTLEN              = 64
	MAXSEARCHRESULTS         = 2500
	SERVEDFROMHOST           = "127.0.0.1"
	SERVEDFROMPORT           = 8100
	TIMEOUTRD                = 15 * time.Second
	TIMEOUTWR                = 60 * time.Second
	USEGZIP                  = false
	WSPOLLINGPAUSE           = 100 * time.Millisecond
	POLLEVERYNPAGES          = 4
	POLICESLOWDOWN           = 3 * time.Second

	// UNACCEPTABLEINPUT - dropped from search input before it reaches the index
	UNACCEPTABLEINPUT = `"'!@=_/\`
)

//
// APPARATUS
//

const (
	VARIANTTYPE    = "variants"
	OMISSIONMARKER = "[om.]"
	GLYPHTOKEN     = "{{g:%s|%s}}"
	GLYPHOPEN      = "{{g:"
	GLYPHCLOSE     = "}}"
	RDGSUMMARYSEP  = " | "
	LINEERRORHTML  = `<span class="lineerror">[unreadable line %d]</span>`

	CAUSETRANSPOSITION = "transposition"
	CAUSEADDITION      = "addition"
	CAUSEOMISSION      = "omission"
	CAUSEDITTOGRAPHY   = "dittography"
	CAUSEORTHOGRAPHIC  = "orthographic"
	CAUSEMARGIN        = "margin"
	CAUSEERASION       = "erasion"
	CAUSEUNSPECIFIED   = "unspecified"

	// TOKENPUNCT - stripped from every token before it enters an index
	TOKENPUNCT = `.,;:!?()[]{}<>"'«»‹›“”‘’·⁖…|/\-–—*+`
)

// CauseLabels - the popup wording for each category of variation
var CauseLabels = map[string]string{
	CAUSETRANSPOSITION: "transposition",
	CAUSEADDITION:      "addition",
	CAUSEOMISSION:      "omission",
	CAUSEDITTOGRAPHY:   "dittography",
	CAUSEORTHOGRAPHIC:  "orthographic variant",
	CAUSEMARGIN:        "in margin",
	CAUSEERASION:       "erasure",
	CAUSEUNSPECIFIED:   "variant",
}

//
// GEOMETRY
//

const (
	LINETOLERANCE     = 5.0  // px: rectangles whose tops differ by less than this share a visual line
	MERGEGAP          = 10.0 // px: horizontally adjacent rectangles closer than this are merged
	UNDERLINEBASE     = 2.0  // px below the text baseline for a level 1 underline
	UNDERLINESTEP     = 4.0  // px of extra offset for each additional level of nesting
	REGIONHEIGHT      = 4.0
	POPUPGAP          = 6.0
	RECOMPUTEDEBOUNCE = 150 * time.Millisecond
	FRAMEINTERVAL     = 16 * time.Millisecond
	POPUPFADE         = 200 * time.Millisecond
)
