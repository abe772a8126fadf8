// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 store 提供工作流定义与执行记录的持久化存储抽象及多后端实现。

# 概述

本包用于保存工作流定义（节点与边）以及每次运行产生的执行审计记录。
通过统一的接口抽象与可插拔的后端实现，上层 API 无需关心底层存储细节，
支持从开发测试到生产部署的平滑切换。

# 核心接口

  - Store: 组合接口，聚合工作流与执行记录两类操作，并提供
    Close 和 Ping 健康检查。
  - WorkflowStore: 工作流定义的增删查接口，列表上限 100 条。
  - ExecutionStore: 执行记录的创建与查询接口，按工作流查询时
    以创建时间倒序返回，上限 50 条。

# 后端实现

  - Memory: 内存实现，适合开发与测试，重启后数据丢失。
  - SQLite: 基于 GORM 的嵌入式实现，定义与记录以 JSON 文档列存储，
    适合单节点生产部署。
  - Mongo: 基于官方 mongo-driver 的实现，使用 workflows 与
    executions 两个集合，适合分布式生产部署。

# 使用方式

通过工厂函数按配置创建存储实例：

	st, err := store.New(config, logger)

记录的 ID 在创建时若为空会自动生成 UUID。
*/
package store
