package ui

import "sync"

// Recorder is a ProgressSink that appends the name of every call it
// receives, in order, for use in tests asserting on call sequence.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

// Calls returns a snapshot of every recorded call name, in order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *Recorder) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *Recorder) BeginBackup(string)    { r.record("BeginBackup") }
func (r *Recorder) BeginStaging(int)      { r.record("BeginStaging") }
func (r *Recorder) BeginStage(string)     { r.record("BeginStage") }
func (r *Recorder) EndStage()             { r.record("EndStage") }
func (r *Recorder) EndStaging()           { r.record("EndStaging") }
func (r *Recorder) BeginCompress()        { r.record("BeginCompress") }
func (r *Recorder) EndCompress()          { r.record("EndCompress") }
func (r *Recorder) EndBackup(bool)        { r.record("EndBackup") }
func (r *Recorder) BeginRestore(string)   { r.record("BeginRestore") }
func (r *Recorder) BeginExtract()         { r.record("BeginExtract") }
func (r *Recorder) EndExtract()           { r.record("EndExtract") }
func (r *Recorder) BeginRestoreSP(string) { r.record("BeginRestoreSP") }
func (r *Recorder) EndRestoreSP()         { r.record("EndRestoreSP") }
func (r *Recorder) EndRestore(bool)       { r.record("EndRestore") }
func (r *Recorder) BeginScan()            { r.record("BeginScan") }
func (r *Recorder) EndScan()              { r.record("EndScan") }
func (r *Recorder) BeginPrepare()         { r.record("BeginPrepare") }
func (r *Recorder) EndPrepare()           { r.record("EndPrepare") }
func (r *Recorder) BeginSync(int)         { r.record("BeginSync") }
func (r *Recorder) SyncProgress(int)      { r.record("SyncProgress") }
func (r *Recorder) EndSync()              { r.record("EndSync") }
func (r *Recorder) BeginFile(string, string, int64) { r.record("BeginFile") }
func (r *Recorder) FileProgress(int64)    { r.record("FileProgress") }
func (r *Recorder) EndFile()              { r.record("EndFile") }

var _ ProgressSink = &Recorder{}
