package view

import (
	"sort"
	"strings"
)

// All 分类过滤的哨兵值，表示「无约束」而非字面匹配
const All = "all"

// Filters 派生视图的过滤输入
// Search 对各可搜索字段做大小写无关子串匹配（字段间 OR）；
// Categories 按键逐一精确匹配（条件间 AND），值为 All 的条件不生效
type Filters struct {
	Search     string
	Categories map[string]string
}

// Descriptor 描述元素如何参与过滤与排序
type Descriptor[T any] struct {
	// SearchFields 返回参与搜索的字段值（姓名、邮箱、编号等）
	SearchFields func(item T) []string
	// Category 返回元素在某个分类键下的取值
	Category func(item T, key string) string
	// Less 稳定排序比较器；为 nil 时保持输入顺序
	Less func(a, b T) bool
}

// Apply 对存储内容计算派生视图
// 纯函数：不修改输入切片，相同输入必得相同输出；
// 空集合直接返回空序列，不会出错
func Apply[T any](items []T, f Filters, d Descriptor[T]) []T {
	result := make([]T, 0, len(items))

	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, item := range items {
		if search != "" && !matchSearch(item, search, d) {
			continue
		}
		if !matchCategories(item, f.Categories, d) {
			continue
		}
		result = append(result, item)
	}

	if d.Less != nil {
		sort.SliceStable(result, func(i, j int) bool { return d.Less(result[i], result[j]) })
	}
	return result
}

// matchSearch 任一可搜索字段命中即通过（OR）
func matchSearch[T any](item T, search string, d Descriptor[T]) bool {
	if d.SearchFields == nil {
		return true
	}
	for _, field := range d.SearchFields(item) {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// matchCategories 所有分类条件须同时满足（AND）；All 为无约束哨兵
func matchCategories[T any](item T, categories map[string]string, d Descriptor[T]) bool {
	if len(categories) == 0 || d.Category == nil {
		return true
	}
	for key, want := range categories {
		if want == "" || want == All {
			continue
		}
		if d.Category(item, key) != want {
			return false
		}
	}
	return true
}

// ByDateTimeSlot 排期类数据的标准两键稳定排序：
// 日期升序优先，同日期内按时间段字典序升序
func ByDateTimeSlot[T any](date, timeSlot func(T) string) func(a, b T) bool {
	return func(a, b T) bool {
		if date(a) != date(b) {
			return date(a) < date(b)
		}
		return timeSlot(a) < timeSlot(b)
	}
}
