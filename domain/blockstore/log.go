package blockstore

import "github.com/Li-GuangCheng/fruitchain/infrastructure/logger"

var log, _ = logger.Get(logger.SubsystemTags.BSTR)
