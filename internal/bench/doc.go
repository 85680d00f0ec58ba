// Package bench 是近端缓存的压测执行器。
//
// 按照给定的读写比例、并发度和键空间对单个缓存命名空间施压，
// 收集延迟分位数与吞吐量，供 nearbench 命令行工具输出报告。
package bench
