package xexec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ScheduleDispatch(t *testing.T) {
	var queued []Task
	sess := &Session{dispatch: func(task Task) { queued = append(queued, task) }}

	sess.Schedule(ModeDispatch, func(s *Session) {})
	sess.Schedule(ModeDispatch, func(s *Session) {})
	assert.Len(t, queued, 2)
}

func TestSession_ScheduleProcessRunsInline(t *testing.T) {
	var queued []Task
	sess := &Session{dispatch: func(task Task) { queued = append(queued, task) }}

	ran := false
	sess.Schedule(ModeProcess, func(s *Session) { ran = true })
	assert.True(t, ran, "ModeProcess task should run before Schedule returns")
	assert.Empty(t, queued)
}

func TestSession_ProcessDepthLimitFallsBackToDispatch(t *testing.T) {
	var queued []Task
	sess := &Session{dispatch: func(task Task) { queued = append(queued, task) }}

	inlineRuns := 0
	var recurse Task
	recurse = func(s *Session) {
		inlineRuns++
		s.Schedule(ModeProcess, recurse)
	}
	sess.Schedule(ModeProcess, recurse)

	// 前 maxInlineDepth 层内联执行，随后降级为入队
	assert.Equal(t, maxInlineDepth, inlineRuns)
	assert.Len(t, queued, 1)
}

func TestSession_NilTaskPanics(t *testing.T) {
	sess := &Session{dispatch: func(Task) {}}
	require.Panics(t, func() { sess.Schedule(ModeDispatch, nil) })
	require.Panics(t, func() { sess.Schedule(ModeProcess, nil) })
}
