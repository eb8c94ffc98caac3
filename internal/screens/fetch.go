package screens

import "context"

// fetchByKeys runs fetch for a key set. An empty key set yields an empty result and no request.
func fetchByKeys[K any, T any](ctx context.Context, keys []K, fetch func(context.Context, []K) ([]T, error)) ([]T, error) {
	if len(keys) == 0 {
		return []T{}, nil
	}
	out, err := fetch(ctx, keys)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
