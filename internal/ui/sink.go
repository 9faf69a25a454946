// Package ui defines the progress sink capability set that the sync and
// backup worker components report through, plus a null, a logging, and a
// test-recording implementation of it.
package ui

// ProgressSink is the callback vocabulary the engine calls in a fixed order
// per request. Implementations include Null (silence), a logging sink used
// by cmd/stool, and Recorder for tests that assert on call order.
type ProgressSink interface {
	BeginBackup(name string)
	BeginStaging(count int)
	BeginStage(name string)
	EndStage()
	EndStaging()
	BeginCompress()
	EndCompress()
	EndBackup(success bool)

	BeginRestore(name string)
	BeginExtract()
	EndExtract()
	BeginRestoreSP(name string)
	EndRestoreSP()
	EndRestore(success bool)

	BeginScan()
	EndScan()
	BeginPrepare()
	EndPrepare()
	BeginSync(n int)
	SyncProgress(done int)
	EndSync()
	BeginFile(prefix, name string, size int64)
	FileProgress(bytes int64)
	EndFile()
}

// Null is a ProgressSink that discards every call. Useful as a default when
// no UI collaborator is wired in.
type Null struct{}

func (Null) BeginBackup(string)        {}
func (Null) BeginStaging(int)          {}
func (Null) BeginStage(string)         {}
func (Null) EndStage()                 {}
func (Null) EndStaging()               {}
func (Null) BeginCompress()            {}
func (Null) EndCompress()              {}
func (Null) EndBackup(bool)            {}
func (Null) BeginRestore(string)       {}
func (Null) BeginExtract()             {}
func (Null) EndExtract()               {}
func (Null) BeginRestoreSP(string)     {}
func (Null) EndRestoreSP()             {}
func (Null) EndRestore(bool)           {}
func (Null) BeginScan()                {}
func (Null) EndScan()                  {}
func (Null) BeginPrepare()             {}
func (Null) EndPrepare()               {}
func (Null) BeginSync(int)             {}
func (Null) SyncProgress(int)          {}
func (Null) EndSync()                  {}
func (Null) BeginFile(string, string, int64) {}
func (Null) FileProgress(int64)        {}
func (Null) EndFile()                  {}

var _ ProgressSink = Null{}
