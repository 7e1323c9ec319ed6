// Package jobs lets several machines share a conversion: one run enqueues a
// job per file in PostgreSQL through River, and queue workers anywhere with
// access to the same paths convert them.
package jobs

import (
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// ConvertFileArgs are the arguments for a convert_file job.
type ConvertFileArgs struct {
	Input     string `json:"input"`
	Output    string `json:"output"`
	Direction string `json:"direction"`
}

func (ConvertFileArgs) Kind() string { return "convert_file" }

func (args ConvertFileArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
		MaxAttempts: 3,
	}
}
