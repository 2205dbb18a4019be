package store

import (
	"context"
	"sync"
)

// Loader 一次可并发执行的存储加载
type Loader func(ctx context.Context)

// LoadAll 并发加载多个存储，等最慢的一个完成后返回（扇出汇合）
// 单个加载失败只影响它自己的存储状态，不阻止其余结果生效
func LoadAll(ctx context.Context, loaders ...Loader) {
	var wg sync.WaitGroup
	wg.Add(len(loaders))
	for _, load := range loaders {
		go func(load Loader) {
			defer wg.Done()
			load(ctx)
		}(load)
	}
	wg.Wait()
}
