package stream

import (
	"context"
	"github.com/wjwei-handsome/rsam"
	"github.com/wjwei-handsome/rsam/internal/util"
)

// Map maps the source stream to a target stream using the provided mapper function.
func Map[SRC any, TGT any](
	src Stream[SRC],
	mapper rsam.Mapper[SRC, TGT],
) Stream[TGT] {
	return MapWithErrAndCtx(src, mapper.ToErrCtx())
}

// MapWithErrAndCtx maps the source stream to a target stream using the provided mapper function.
func MapWithErrAndCtx[SRC any, TGT any](
	src Stream[SRC],
	mapper rsam.MapperWithErrAndCtx[SRC, TGT],
) Stream[TGT] {
	return newStream[TGT](
		func(ctx context.Context) (TGT, error) {
			v, err := src.provider(ctx)
			if err != nil {
				return util.DefaultValue[TGT](), err
			}
			return mapper(ctx, v)
		}, src.allLifecycleElement,
	)
}

// FlatMap maps a single element of the source stream to a stream of elements and flattens the result to a single stream.
func FlatMap[SRC any, TGT any](src Stream[SRC], mapper rsam.Mapper[SRC, Stream[TGT]]) Stream[TGT] {
	return Concat[TGT](MapWithErrAndCtx[SRC, Stream[TGT]](src, mapper.ToErrCtx()))
}
