//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

type CurrentConfiguration struct {
	BlackAndWhite bool
	ConfigFile    string
	EchoLog       int // 0: "none", 1: "terse", 2: "prolix", 3: "prolix+remoteip"
	Gzip          bool
	HostIP        string
	HostPort      int
	IndexRestore  string // read the indices from this SQLite file instead of building them
	IndexSnapshot string // write the built indices to this SQLite file if set
	LogLevel      int
	ManualGC      bool // see MessageMaker.LogPaths()
	PGLogin       PostgresLogin
	ProfileCPU    bool
	ProfileMEM    bool
	QuietStart    bool
	Source        string
	Translation   string
	UsePostgres   bool
	WorkerCount   int
}
