// Package filetable fills and reads the filetable schema:
//
//	filetable(hash varchar(16), filename varchar(512), entropy real)
//
// Scan hashes and measures the files below a directory, Store writes them
// through a sqlitec.Handle and Report reads filename and entropy back into a
// collector.
package filetable
