/*
Package launcher implements the library and launch engine of the gem ROM manager.

The project has three main source packages:
`cmd`: Main applications, the `gem` command line front-end.
`internal`: Private application and library code.
`pkg`: Library code that's ok to use by external applications

The engine reads consoles and emulators from INI files, keeps per-game metadata in a
schema-driven SQLite database, enumerates ROM folders in chunks and supervises the
emulator processes it spawns.
*/
package launcher
