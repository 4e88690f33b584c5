package cache

import (
	"context"
	"time"

	"github.com/inkwell-api/internal/repository"
)

const topTagsCacheTTL = 5 * time.Minute

const topTagsCacheKey = "meta:top_tags"

// GetTopTags 读取标签统计缓存
func GetTopTags(ctx context.Context) ([]repository.TagCount, bool, error) {
	var tags []repository.TagCount
	hit, err := GetJSON(ctx, topTagsCacheKey, &tags)
	if err != nil || !hit {
		return nil, hit, err
	}
	return tags, true, nil
}

// SetTopTags 写入标签统计缓存
func SetTopTags(ctx context.Context, tags []repository.TagCount) error {
	return SetJSON(ctx, topTagsCacheKey, tags, topTagsCacheTTL)
}

// DelTopTags 文章写操作后失效标签统计
func DelTopTags(ctx context.Context) error {
	return Del(ctx, topTagsCacheKey)
}
