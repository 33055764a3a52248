// Package rsam holds the function types shared by the stream and sampling packages.
package rsam

import (
	"context"
)

func (m Mapper[SRC, TGT]) ToErrCtx() MapperWithErrAndCtx[SRC, TGT] {
	return func(_ context.Context, src SRC) (TGT, error) {
		return m(src), nil
	}
}

func (p Predicate[SRC]) ToErrCtx() PredicateWithErrAndCtx[SRC] {
	return func(_ context.Context, src SRC) (bool, error) {
		return p(src), nil
	}
}

type Mapper[SRC any, TGT any] func(src SRC) TGT
type MapperWithErrAndCtx[SRC any, TGT any] func(context.Context, SRC) (TGT, error)

type Predicate[SRC any] Mapper[SRC, bool]
type PredicateWithErrAndCtx[SRC any] MapperWithErrAndCtx[SRC, bool]
