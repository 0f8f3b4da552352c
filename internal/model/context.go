package model

import (
	"context"
)

type ContextManager interface {
	SetActorToContext(ctx context.Context, actor Actor) context.Context
	GetActorFromContext(ctx context.Context) (Actor, bool)
}
