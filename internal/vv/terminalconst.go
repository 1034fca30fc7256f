//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

const (
	MINCONFIG = `
{"Source": "ginza.xml", "Translation": "ginza-translation.xml"}
`

	TERMINALTEXT = `Copyright (C) %s / %s
      %s

      This program comes with ABSOLUTELY NO WARRANTY; without even the  
      implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.

      This is free software, and you are welcome to redistribute it and/or 
      modify it under the terms of the GNU General Public License version 3.`

	PROJYEAR = "2024"
	PROJAUTH = "E. Gunderson"
	PROJMAIL = "Department of Classics, 125 Queen’s Park, Toronto, ON  M5S 2C7 Canada"
	PROJURL  = "https://github.com/e-gun/GinzaGoServer"

	HELPTEXTTEMPLATE = `S3command line optionsS0:
   C1-bwC0          disable color output in the console
   C1-cC0 C2{string}C0  read the configuration from this file [C6currentC0: C3{{.conffile}}C0]
   C1-elC0 C2{num}C0    set echo server log level (C10-3C0) [C6currentC0: C3{{.echoll}}C0]
   C1-gcC0          force garbage collection after each route and log the heap
   C1-glC0 C2{num}C0    set golang log level (C10-5C0) [C6currentC0: C3{{.ggsll}}C0]
   C1-gzC0          enable gzip compression of the server's output
   C1-hC0           print this help information
   C1-ixC0 C2{string}C0 write a SQLite snapshot of the search indices to this file after they are built
   C1-pcC0          enable CPU profiling run
   C1-pgC0 C2{string}C0 load the edition from PostgreSQL with these credentials C4(*)C0
   C1-pmC0          enable MEM profiling run
   C1-qC0           quiet startup: suppress copyright notice
   C1-riC0 C2{string}C0 read the search indices from this SQLite snapshot instead of building them
   C1-saC0 C2{string}C0 server IP address [C6currentC0: C3{{.host}}C0]
   C1-spC0 C2{num}C0    server port [C6currentC0: C3{{.port}}C0]
   C1-srcC0 C2{string}C0 TEI file holding the witness list and the transcription [C6currentC0: C3{{.src}}C0]
   C1-trC0 C2{string}C0  TEI file holding the translation [C6currentC0: C3{{.tr}}C0]
   C1-vC0           print version info and exit
   C1-wcC0 C2{int}C0    number of index workers [C1cpu_countC0 is C3{{.cpus}}C0][C6currentC0: C3{{.workers}}C0]
     (*) S3exampleS0: 
         C4"{\"Pass\": \"YOURPASSWORDHERE\" ,\"Host\": \"127.0.0.1\", \"Port\": 5432, \"DBName\": \"ginzaDB\" ,\"User\": \"ginza_rd\"}"C0
     
     S1NB:S0 "C3{{.env}}C0" in "C3{{.cwd}}C0" may set C3GINZA_PGPASSC0, C3GINZA_SOURCEC0 and C3GINZA_TRANSLATIONC0.
         See the sample configuration files at
             C3{{.projurl}}C0
`
)
