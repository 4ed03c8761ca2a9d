package engine

import (
	"context"
	"time"

	. "damcore/pkg/common"
)

type timeManager struct {
	start  time.Time
	limits LimitsType
	ctx    context.Context
	cancel context.CancelFunc
}

func newTimeManager(ctx context.Context, start time.Time, limits LimitsType) *timeManager {
	var cancel context.CancelFunc
	if limits.MoveTime > 0 {
		ctx, cancel = context.WithDeadline(ctx,
			start.Add(time.Duration(limits.MoveTime)*time.Millisecond))
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	return &timeManager{
		start:  start,
		limits: limits,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (tm *timeManager) IsDone() bool {
	return tm.ctx.Err() != nil
}

func (tm *timeManager) OnNodesChanged(nodes int) {
	if tm.limits.Nodes > 0 && nodes >= tm.limits.Nodes {
		tm.cancel()
	}
}

func (tm *timeManager) OnIterationComplete(line mainLine) {
	if tm.limits.Infinite {
		return
	}
	if tm.limits.Depth != 0 && line.depth >= tm.limits.Depth {
		tm.cancel()
		return
	}
	if line.score >= winIn(line.depth-5) ||
		line.score <= lossIn(line.depth-5) {
		tm.cancel()
		return
	}
}

func (tm *timeManager) Close() {
	tm.cancel()
}
