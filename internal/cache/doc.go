// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 cache 提供基于 Redis 的工作流定义读穿缓存，支持连接池与健康检查。

# 概述

本包封装 go-redis 客户端，为 API 层提供工作流定义的缓存读写接口。
执行请求到来时优先读缓存，未命中再回源到定义存储并写回缓存；
定义被删除时同步失效对应条目。Manager 负责连接生命周期管理，
包括初始化、健康检查与优雅关闭。

# 核心类型

  - Manager：缓存管理器，持有 Redis 客户端与配置，
    提供 Get/Set/Delete 基础操作，以及
    GetWorkflow/PutWorkflow/InvalidateWorkflow 工作流定义便捷方法。
  - Config：缓存配置，包含地址、密码、键前缀、连接池大小、
    默认 TTL 与健康检查间隔等参数。

# 主要能力

  - 读穿缓存：工作流定义以 JSON 文档缓存，键形如
    agentgraph:workflow:{id}。
  - 连接池管理：通过 PoolSize 控制连接复用。
  - 健康检查：后台定时 Ping 检测，异常时通过 zap 日志告警。
  - 优雅关闭：Close 方法安全释放底层 Redis 连接。
  - 错误语义：提供 ErrCacheMiss 哨兵错误与 IsCacheMiss 判断函数。
*/
package cache
