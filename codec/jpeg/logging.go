/*
DESCRIPTION
  logging.go documents this package's logging convention: Decode and Lex
  both log through the single package-level Log variable declared in
  lex.go. Callers are expected to assign
  Log (or pass a logger via WithLogger) before decoding; there is no
  no-op default.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg
